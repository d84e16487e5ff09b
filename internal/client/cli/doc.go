// Package cli implements the airvent command-line client.
//
// The root command is built by NewRootCommand. Every subcommand runs one
// request against the subscription service, or does purely local key work:
//
//	keygen      create a passphrase-protected signing key
//	address     print the subscription address derived for an owner
//	sign        mint a proof for another party to submit
//	create      open a Free subscription (local key is the owner)
//	earn        award points (local key is the authority)
//	upgrade     bind a hardware serial and become Premium
//	downgrade   clear the hardware binding and return to Free
//	show        print the current subscription record
//	ping        check that the server is reachable
//
// The key passphrase is read from AIRVENT_KEY_PASSPHRASE when set and
// prompted for on the terminal otherwise.
package cli
