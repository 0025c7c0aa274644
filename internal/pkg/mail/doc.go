// Package mail sends email through a provider-agnostic Message.
//
// SMTP is the only provider. Callers depend on the Mail interface.
package mail
