// Package main generates a development Certificate Authority (CA) and a
// server certificate signed by it, writing them under the "certs"
// directory. The server uses them with -tls-cert/-tls-key, the client
// with -ca.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/GophNotes/internal/certgen"
)

func main() {
	dir := flag.String("dir", "certs", "output directory")
	hosts := flag.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	flag.Parse()

	if err := run(*dir, splitHosts(*hosts)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Certificates generated into %s\n", *dir)
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// run writes ca.crt/ca.key and server.crt/server.key into dir.
func run(dir string, hosts []string) error {
	caPEM, caKeyPEM, err := certgen.GenerateCA("GophNotes Dev CA")
	if err != nil {
		return err
	}
	if err := certgen.WritePair(dir, "ca", caPEM, caKeyPEM); err != nil {
		return err
	}

	caCert, caKey, err := certgen.LoadCACredentials(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	if err != nil {
		return err
	}
	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return err
	}
	return certgen.WritePair(dir, "server", certPEM, keyPEM)
}
