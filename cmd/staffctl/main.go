package main

import "staffadmin/cmd/staffctl/commands" // staffctl command tree

// Main entry point for the operator CLI
func main() {
	commands.Execute()
}
