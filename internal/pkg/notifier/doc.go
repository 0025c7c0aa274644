// Package notifier delivers one-time passcodes to a subject.
//
// Drivers:
//   - log: writes the code to the application log (development)
//   - smtp: emails the code through package mail
//   - sns: texts the code to an E.164 number through AWS SNS
package notifier
