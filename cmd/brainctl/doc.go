// Brainctl is a command-line client for the BRAIN cloud training
// service.
//
// It manages local configuration profiles and issues HTTP and websocket
// calls to create, push, pull, train, and monitor BRAINs.
//
// Usage:
//
//	brainctl configure                # validate and store an access key
//	brainctl profile switch staging   # change the active profile
//	brainctl create mybrain           # create a brain from this project
//	brainctl push                     # upload project files
//	brainctl train start              # begin training
//	brainctl log --follow             # stream simulator logs
//
// Run brainctl --help for the full command list.
package main
