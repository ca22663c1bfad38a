// Command todos is a to-do list client with optimistic updates.
package main

import "github.com/mesh-intelligence/todos/internal/cli"

func main() {
	cli.Execute()
}
