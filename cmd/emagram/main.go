// Command emagram generates and checks emagram reference curves offline.
package main

import "github.com/couchcryptid/emagram-etl/internal/cli"

func main() {
	cli.Execute()
}
