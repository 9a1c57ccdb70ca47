// cmd/main.go
package main

import (
	"go-ledger/app"
)

// @title           Go-Ledger API
// @version         1.0
// @description     A minimal ledger: accounts, an append-only entry log and atomic transfers.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
