package models

// Secret holds candle-database credentials. Loaded from AWS secrets or a
// local json file, never hard-coded.
type Secret struct {
	DBHost     string `json:"db_host"`
	DBPort     int    `json:"db_port"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
}
