// Package cli provides the interactive sessionkeeper command-line client.
//
// It wires configuration, the local session store, the chosen transport
// (gRPC or HTTP) and an interactive REPL:
//
//	register       create an account and sign in
//	signin         sign in and start a session
//	status         show who is signed in and when the identity token expires
//	product <id>   fetch a protected product, refreshing the session once if needed
//	signout        forget the local session
//	help, exit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
