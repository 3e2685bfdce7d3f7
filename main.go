package main

import "github.com/inovacc/repomirror/cmd"

func main() {
	cmd.Execute()
}
