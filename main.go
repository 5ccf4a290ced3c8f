package main

import "github.com/memoflow-dev/memoflow/internal/cli"

func main() {
	cli.Execute()
}
