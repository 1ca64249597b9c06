// Package activity defines the subset of the Bot Framework activity protocol
// the host consumes: inbound message and notification activities, the channel
// account / conversation envelope fields, and reply construction. The wire
// format is owned by the messaging service; this package only models what the
// starter kit reads and writes.
package activity
