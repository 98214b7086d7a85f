package main

import "github.com/oshokin/check-xups-alarms/cmd/check-xups-alarms/cmd"

func main() {
	cmd.Execute()
}
