// File: cmd/service/main.go
// @title        modelfang console API
// @version      1.0
// @description  modelfang console 的登入與 session API
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name console_session
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log"
	"os"

	_ "modelfang-console/docs" // 引入 swag 產出的 docs
)

var exitFunc = os.Exit

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
