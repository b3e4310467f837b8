package main

import "StudyBud/cmd"

func main() {
	cmd.Execute()
}
