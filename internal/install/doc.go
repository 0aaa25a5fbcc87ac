// Package install installs a formula into a prefix.
//
// Installer.Install holds the prefix lock for the whole run and then:
// picks the formula resource for the detected platform, fetches it into a
// scratch directory with the github fetcher, checks its SHA-256 (and a
// detached GPG signature when the resource has one and a keyring is
// configured), extracts each declared binary into <prefix>/bin and runs the
// formula's smoke test.
//
// Nothing is written to <prefix>/bin before verification passes, and each
// binary is extracted to a temporary name and renamed into place.
package install
