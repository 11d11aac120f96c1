// Command fcmreceiver is a small demo/debug CLI around the fcmreceiver
// library: register a spoofed Android device for FCM push delivery, then
// listen for incoming messages and print them.
package main

import "github.com/paradilldel90/fcmreceiver/cmd/fcmreceiver/internal/cli"

func main() {
	cli.Execute()
}
