package main

import "github.com/birthdays/birthdays-go/internal/cli"

func main() {
	cli.Execute()
}
