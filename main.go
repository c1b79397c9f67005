package main

import "github.com/ValentinKolb/techlog/cmd"

func main() {
	cmd.Execute()
}
