// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package upload publishes finished reports to Google Cloud Storage.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// A URL names a Cloud Storage object, or a prefix if Object ends in
// "/".
type URL struct {
	Bucket string
	Object string
}

// ParseURL parses a URL of the form gs://bucket/object.
func ParseURL(s string) (*URL, error) {
	rest, ok := strings.CutPrefix(s, "gs://")
	if !ok {
		return nil, fmt.Errorf("upload target %q: want gs://bucket/object", s)
	}
	bucket, object, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return nil, fmt.Errorf("upload target %q: missing bucket", s)
	}
	return &URL{Bucket: bucket, Object: object}, nil
}

// ObjectFor returns the object name a local file is uploaded to. If
// u names a prefix, the file's base name is appended.
func (u *URL) ObjectFor(localPath string) string {
	if u.Object == "" || strings.HasSuffix(u.Object, "/") {
		return u.Object + filepath.Base(localPath)
	}
	return u.Object
}

func (u *URL) String() string {
	return "gs://" + path.Join(u.Bucket, u.Object)
}

// A Client uploads files.
type Client struct {
	gcs *storage.Client

	// newWriter opens the destination object. It is replaced in
	// tests.
	newWriter func(ctx context.Context, bucket, object string) io.WriteCloser
}

// New returns a Client authenticated with the service account key in
// credentialsFile, or with the application default credentials if
// credentialsFile is empty.
func New(ctx context.Context, credentialsFile string) (*Client, error) {
	var opt option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			return nil, fmt.Errorf("credentials: %w", err)
		}
		opt = option.WithCredentialsFile(credentialsFile)
	} else {
		creds, err := google.FindDefaultCredentials(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}
		opt = option.WithCredentials(creds)
	}
	gcs, err := storage.NewClient(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	c := &Client{gcs: gcs}
	c.newWriter = func(ctx context.Context, bucket, object string) io.WriteCloser {
		w := gcs.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "text/csv"
		w.CacheControl = "no-cache"
		return w
	}
	return c, nil
}

// Upload copies the file at localPath to dst and returns the URL of
// the written object.
func (c *Client) Upload(ctx context.Context, localPath string, dst *URL) (*URL, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obj := &URL{Bucket: dst.Bucket, Object: dst.ObjectFor(localPath)}
	w := c.newWriter(ctx, obj.Bucket, obj.Object)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return nil, fmt.Errorf("copying %s to %s: %w", localPath, obj, err)
	}
	// The object is only committed by Close.
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("writing %s: %w", obj, err)
	}
	return obj, nil
}

// Close releases the client's resources.
func (c *Client) Close() error {
	if c.gcs == nil {
		return nil
	}
	return c.gcs.Close()
}
