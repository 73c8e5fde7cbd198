package main

import "github.com/govolunteer/govolunteer-api/internal/cli"

func main() {
	cli.Execute()
}
