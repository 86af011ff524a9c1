// Package bwprotocol provides a client for the line-oriented automation
// protocol of BitWise Laboratories instruments.
//
// # Protocol Overview
//
// Every command is one ASCII line terminated by a newline and sent over a
// plain TCP connection (port 923 by default). A command whose last
// character is '?' is a query: the instrument answers with exactly one
// newline-terminated line. Other commands produce no reply.
//
// # Basic Usage
//
//	session := bwprotocol.NewSession()
//	if err := session.Connect("10.0.0.5", bwprotocol.DefaultPort); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Disconnect()
//
//	idn, err := session.Query("*IDN?")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(idn)
//
//	if err := session.SendCommand("OUTPUT ON"); err != nil {
//	    log.Fatal(err)
//	}
//	if !session.FastMode() {
//	    if err := session.CheckError("OUTPUT ON"); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Error Checking
//
// SendCommand never reads from the connection. Callers that want to know
// whether a command was accepted call CheckError, which queries the
// instrument's error queue (ErrorQuery). Fast mode is the caller's
// signal to skip that extra round trip.
//
// # Errors
//
// Failures are returned as typed errors: *ConnectionError, *WriteError,
// *ReadError (errors.Is(err, ErrTimeout) for deadlines),
// *ResponseTooLargeError and *DeviceError, or ErrNotConnected. After a
// transport failure the session drops its connection.
//
// # Thread Safety
//
// A Session is meant to be used by one goroutine at a time. Disconnect
// may additionally be called from another goroutine, for example a signal
// handler; a Query blocked on the socket then fails with a *ReadError.
package bwprotocol
