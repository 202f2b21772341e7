// Package utils holds small numeric and formatting helpers shared across the
// engine, plus secret loading for the database provider.
package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
	"github.com/fatih/structs"

	"github.com/olaitanojo/spxbot/models"
)

// CalculateDifference Get percentage difference between 2 numbers
func CalculateDifference(x float64, y float64) float64 {
	if y == 0 {
		return 0
	}
	return (x - y) / y
}

// SumArr Get the sum of all elements in a slice
func SumArr(arr []float64) float64 {
	sum := 0.0
	for i := range arr {
		sum = sum + arr[i]
	}
	return sum
}

func round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

// ToFixed Round a float to a fixed number of decimal places
func ToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(round(num*output)) / output
}

// CreateKeyValuePairs make a string interface human readable
func CreateKeyValuePairs(m map[string]interface{}, ignoreLowerCase bool, oldBytes ...*bytes.Buffer) string {
	var b *bytes.Buffer
	if len(oldBytes) > 0 {
		b = oldBytes[0]
	} else {
		b = new(bytes.Buffer)
	}
	fmt.Fprint(b, "\n{\n")
	for key, value := range m {
		firstLetter := string(key[0])
		upperCaseFirstLetter := strings.ToUpper(firstLetter)
		if !ignoreLowerCase || upperCaseFirstLetter == firstLetter {
			rv := reflect.ValueOf(value)
			if rv.Kind() == reflect.Struct {
				fmt.Fprint(b, " ", key, ": ")
				CreateKeyValuePairs(structs.Map(value), ignoreLowerCase, b)
			} else {
				fmt.Fprint(b, " ", key, ": ", value, ",\n")
			}
		}
	}
	fmt.Fprint(b, "}\n")
	return b.String()
}

// LoadSecret Load database credentials from a local json file or from an
// amazon secrets manager entry when cloud is true.
func LoadSecret(name string, cloud bool) (models.Secret, error) {
	var secret models.Secret
	if cloud {
		raw, err := getSecret(name)
		if err != nil {
			return secret, err
		}
		err = json.Unmarshal([]byte(raw), &secret)
		return secret, err
	}
	raw, err := os.ReadFile(name)
	if err != nil {
		return secret, err
	}
	err = json.Unmarshal(raw, &secret)
	return secret, err
}

func getSecret(secretName string) (string, error) {
	svc := secretsmanager.New(session.New(), aws.NewConfig().WithRegion("us-west-1"))
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"),
	}
	result, err := svc.GetSecretValue(input)
	if err != nil {
		return "", err
	}
	if result.SecretString != nil {
		return *result.SecretString, nil
	}
	return "", fmt.Errorf("secret %s has no string payload", secretName)
}
