// Package giftery is a client for the Giftery gift-card vending API.
//
// Every remote operation is a single signed request: the command name, the
// client id and the JSON payload travel to the endpoint together with a
// SHA-256 signature of command, payload and shared secret. A Client is an
// immutable value; UseGet, UsePost and UsingEndpoint return reconfigured
// copies, so one Client may be shared between goroutines.
//
//	client := giftery.New(42, "secret").UsePost()
//	balance, err := client.GetBalance(ctx)
package giftery
