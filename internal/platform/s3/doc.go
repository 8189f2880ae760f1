// Package s3 fetches an initial LDIF file from S3-compatible object storage.
//
// An install_ldif_file of the form s3://bucket/key is downloaded into the
// instance's LDIF directory before the bulk load runs. Region and endpoint
// come from DSINSTALL_S3_REGION and DSINSTALL_S3_ENDPOINT; credentials come
// from the default AWS chain unless static keys are supplied.
package s3
