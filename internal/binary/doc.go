// Package binary downloads artifacts to disk and verifies them against a
// SHA-256 digest.
//
// # Staging
//
// Every download is written to "<dest>.part" next to the destination and
// only renamed over the destination once the body has been fully written,
// flushed and, when a digest was supplied, verified. Any failure before the
// rename deletes the staging file and leaves the destination untouched. A
// staging file left behind by a killed process is removed before the next
// attempt starts.
//
// # Usage
//
//	client := transport.New()
//	dl := binary.NewDownloader(client, binary.WithProgress(ui.ProgressFactory(os.Stdout)))
//
//	res, err := dl.Download(ctx, artifact.URL, "/srv/mc/survival/server.jar", artifact.Digest)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Bytes, res.Verified)
package binary
