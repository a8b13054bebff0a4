// Package domain contains the account entities and the failure taxonomy shared
// by every layer. It has no knowledge of storage engines or HTTP.
package domain
