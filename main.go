package main

import "github.com/DavidOteria/OcculusINT/cmd"

func main() {
	cmd.Execute()
}
