package notification

import (
	"context"
	"fmt"
)

// ObjectUploader is the subset of the S3 client used for archiving
type ObjectUploader interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// S3Archiver stores rendered invitation emails under invitations/{project}/{contractor}.html
type S3Archiver struct {
	Uploader ObjectUploader
}

// InvitationKey is the object key for a project/contractor invitation
func InvitationKey(projectID, contractorID string) string {
	return fmt.Sprintf("invitations/%s/%s.html", projectID, contractorID)
}

func (a *S3Archiver) ArchiveInvitation(ctx context.Context, projectID, contractorID, html string) error {
	return a.Uploader.PutObject(ctx, InvitationKey(projectID, contractorID), []byte(html), "text/html; charset=utf-8")
}
