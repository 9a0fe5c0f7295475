/*
aa-greeting sets the business hours or after hours greeting of one or more Webex Calling Auto Attendants.

Run 'aa-greeting --help' for the details.
*/
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jim-barber-he/aa-greeting/aagreeting/cmd"
)

func main() {
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		log.Fatalln(err)
	}
}
