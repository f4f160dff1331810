package main

import "github.com/stuttgart-things/firstboot/cmd"

func main() {
	cmd.Execute()
}
