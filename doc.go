// Package sealnote is the client-side encryption core of an end-to-end
// encrypted note service. The server only ever stores ciphertext, a salt and
// a wrapped key.
//
// Key hierarchy:
//
//	password + salt --PBKDF2-HMAC-SHA-256--> MasterKey (never exported)
//	MasterKey --AES-256-GCM--> WrappedDataKey (stored with the account)
//	DataKey --AES-256-GCM--> content records
//	ShareKey --AES-256-GCM--> shared records (key travels in the URL fragment)
//
// Because content is encrypted under the DataKey rather than the password,
// changing the password only re-wraps one key.
//
// Basic usage:
//
//	client := sealnote.New()
//
//	account, session, err := client.Signup(ctx, []byte("correct horse"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Logout()
//
//	rec, err := session.EncryptNote("groceries", "milk, eggs")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := session.DecryptNote(rec)
//
// Archives produced by Session.Export can be restored without the service,
// using Client.DecryptArchive or the sealnote-restore command.
package sealnote
