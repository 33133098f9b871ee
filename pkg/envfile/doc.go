// Package envfile loads .env files and checks them against the
// environment contract the backend image consumes: database
// credentials, the Django secret, and host allowlists.
package envfile
