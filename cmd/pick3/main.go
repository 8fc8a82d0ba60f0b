// Command pick3 generates Pick 3 combinations from a number grid.
package main

import "github.com/klytics/pick3/cmd"

func main() {
	cmd.Execute()
}
