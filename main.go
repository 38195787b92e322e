package main

import "github.com/frahmantamala/asset-tracking/cmd"

func main() {
	cmd.Execute()
}
