package main

import (
	"db-classify/cmd"

	_ "github.com/denisenkom/go-mssqldb"
)

func main() {
	cmd.Execute()
}
