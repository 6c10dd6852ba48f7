/*
	Copyright 2025 Markus Papenbrock
*/

package main

import "github.com/mpapenbr/f1-pitstrategy-go/cmd"

func main() {
	cmd.Execute()
}
