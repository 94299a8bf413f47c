package main

import "github.com/williampepple1/fbref-stats/internal/cli"

func main() {
	cli.Execute()
}
