package main

import "course-studio/cmd"

func main() {
	cmd.Execute()
}
