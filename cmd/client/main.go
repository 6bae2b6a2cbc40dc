// Package main is an interactive shell for the GophNotes API.
package main

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/atinyakov/GophNotes/internal/client"
)

var (
	version   string
	buildDate string
)

func defaultSessionPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gophnotes", "session.json")
	}
	return ".gophnotes-session.json"
}

// main parses command-line flags, restores the saved session and starts the shell.
func main() {
	var (
		baseURL     string
		caFile      string
		sessionPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&caFile, "ca", "", "path to CA cert for https servers")
	flag.StringVar(&sessionPath, "session", defaultSessionPath(), "path to session file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("GophNotes Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	httpClient, err := client.NewHTTPClient(caFile)
	if err != nil {
		log.Fatal(err)
	}

	sess, err := client.LoadSession(sessionPath)
	if err != nil {
		log.Fatal(err)
	}
	// A token is only valid for the server that issued it.
	if sess.BaseURL != baseURL {
		sess.Clear()
		sess.BaseURL = baseURL
	}

	c := client.New(baseURL, httpClient)
	c.SetToken(sess.Token)

	sh := &shell{
		api:         c,
		session:     sess,
		sessionPath: sessionPath,
		prompt:      client.NewPrompter(os.Stdin, os.Stdout),
		out:         os.Stdout,
	}
	sh.run(context.Background())
}
