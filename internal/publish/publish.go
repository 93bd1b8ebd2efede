// Package publish uploads run reports to Azure Blob Storage.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/spboyer/siteselect/internal/models"
	"github.com/spboyer/siteselect/internal/report"
)

// Content types of the uploaded artifacts.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Artifact is one file of a run report.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Artifacts renders the files uploaded for run.
func Artifacts(run *models.Run, includeXLSX bool) ([]Artifact, error) {
	csvText, err := report.RunCSV(run)
	if err != nil {
		return nil, err
	}
	runJSON, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding run: %w", err)
	}

	out := []Artifact{
		{Name: "selection.csv", ContentType: ContentTypeCSV, Data: []byte(csvText)},
		{Name: "summary.txt", ContentType: ContentTypeText, Data: []byte(report.RunText(run))},
		{Name: "run.json", ContentType: ContentTypeJSON, Data: runJSON},
	}

	if includeXLSX {
		var buf bytes.Buffer
		if err := report.WriteXLSX(&buf, run); err != nil {
			return nil, err
		}
		out = append(out, Artifact{Name: "selection.xlsx", ContentType: ContentTypeXLSX, Data: buf.Bytes()})
	}
	return out, nil
}

// blobUploader is the subset of *azblob.Client used here.
type blobUploader interface {
	UploadBuffer(ctx context.Context, containerName string, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// Publisher uploads artifacts under <container>/<run-id>/.
type Publisher struct {
	client    blobUploader
	container string
	logger    *slog.Logger
}

// Options configures New.
type Options struct {
	// Credential defaults to azidentity.DefaultAzureCredential.
	Credential azcore.TokenCredential
	Logger     *slog.Logger
}

// New creates a Publisher for the storage account at accountURL.
func New(accountURL, container string, opts *Options) (*Publisher, error) {
	if accountURL == "" {
		return nil, fmt.Errorf("publish: storage account URL is not configured")
	}
	if container == "" {
		return nil, fmt.Errorf("publish: container is not configured")
	}
	if opts == nil {
		opts = &Options{}
	}

	cred := opts.Credential
	if cred == nil {
		c, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("publish: creating credential: %w", err)
		}
		cred = c
	}

	client, err := azblob.NewClient(accountURL, cred, &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{MaxRetries: 3},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("publish: creating blob client: %w", err)
	}
	return newPublisher(client, container, opts.Logger), nil
}

func newPublisher(client blobUploader, container string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, container: container, logger: logger}
}

// Publish uploads artifacts for run and returns the blob names written.
func (p *Publisher) Publish(ctx context.Context, run *models.Run, artifacts []Artifact) ([]string, error) {
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		name := path.Join(run.ID, a.Name)
		_, err := p.client.UploadBuffer(ctx, p.container, name, a.Data, &azblob.UploadBufferOptions{
			HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(a.ContentType)},
			Metadata: map[string]*string{
				"criteria": to.Ptr(run.Criteria),
				"status":   to.Ptr(string(run.Status())),
			},
		})
		if err != nil {
			return names, fmt.Errorf("publish: uploading %s: %w", name, err)
		}
		p.logger.Debug("uploaded report artifact", "run_id", run.ID, "container", p.container, "blob", name, "bytes", len(a.Data))
		names = append(names, name)
	}
	return names, nil
}
