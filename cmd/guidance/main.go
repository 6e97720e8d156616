// cmd/guidance/main.go
package main

import (
	"guidance/internal/app"
	"guidance/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
