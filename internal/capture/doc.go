// Package capture reads timer output from a serial port and turns it into
// race events.
//
// A Session owns the port and a background reader goroutine. Raw bytes are
// framed into lines, parsed into lane times, and published on a bounded
// event channel. Consumers drain events with NextEvent; when the channel
// fills, the oldest event is dropped so a slow consumer never stalls the
// reader.
package capture
