// Package main (cmd/admin) is a command-line client for the gateway's TLD admin API.
//
// Commands:
//
//	list    - Print the configured TLDs and their records contracts
//	set     - Register or replace the records contract of a TLD
//	delete  - Remove a TLD
//	reload  - Make the gateway re-read its TLD configuration from storage
//
// Changes made with set and delete are held in the gateway's memory and are
// discarded by the next reload.
//
// Example:
//
//	admin --admin-token=$ADMIN_TOKEN set azero --contract=0x1111111111111111111111111111111111111111
package main
