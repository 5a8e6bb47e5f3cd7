// cmd/main.go
package main

import (
	"go-admin-auth/app"
)

func main() {
	app.Run()
}
