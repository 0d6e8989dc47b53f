// Package cli is the interactive Themis terminal client.
//
// App wires configuration, the local database, the auth store, the API
// client, the route guard and the chat engine, then runs one screen per
// route: the landing menu, the auth forms and the chat REPL. Screens change
// routes through App.Navigate and the router re-checks access on every
// change.
//
// Chat commands:
//
//	<text>               send a message with the pending attachments
//	/help                list commands
//	/sessions            list sessions, the current one marked with *
//	/new                 start a new conversation
//	/switch <n>          open session n
//	/rename <n> [title]  rename session n, prompting when title is omitted
//	/delete <n>          delete session n
//	/attach <path>       queue a file for the next message
//	/detach <n>          drop queued file n
//	/files               list queued files
//	/logout              sign out
//	/exit                quit
package cli
