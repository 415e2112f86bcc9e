package main

import "missingpet-backend/cmd"

func main() {
	cmd.Run()
}
