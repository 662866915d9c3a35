package main

import (
	"os"
)

// @title						Event Manager API
// @version					1.0
// @description				Users, events and ticketed attendance.
// @BasePath					/api/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and the JWT.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
