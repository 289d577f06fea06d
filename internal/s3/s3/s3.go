// Package s3 provides data operation service for S3 storage.

package s3

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"email-verifier-service/internal/config"
	"email-verifier-service/internal/s3/errors"
	"email-verifier-service/internal/syncutils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

// Service defines a new S3 service and sets its attributes.
type Service struct {
	s3up      *s3manager.Uploader
	s3down    *s3.S3
	cfg       *config.Config
	log       *zerolog.Logger
	syncUtils *syncutils.SyncUtils
}

// NewService initializes a new S3 service.
func NewService(config *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) (*Service, error) {
	logger.Debug().Msg("calling initializer of S3 service")
	sess := session.Must(session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.S3Storage.AccessKeyID,
			config.S3Storage.SecretAccessKey,
			"",
		),
		Region:   &config.S3Storage.Region,
		Endpoint: &config.S3Storage.Endpoint,
	}))

	return &Service{
		s3down:    s3.New(sess),
		s3up:      s3manager.NewUploader(sess),
		cfg:       config,
		log:       logger,
		syncUtils: syncUtils,
	}, nil
}

// UploadReport archives a verification report under the reports folder.
func (s *Service) UploadReport(filePath, jobID string) error {
	s.log.Debug().Msg("calling `UploadReport` method")
	s.log.Info().Msg(fmt.Sprintf("uploading report %s for job %s", filePath, jobID))
	f, err := os.Open(filePath)
	if err != nil {
		s.log.Error().Err(err).Msg(errors.FileOpeningError)
		return err
	}
	defer f.Close()

	key := path.Join(s.cfg.S3Storage.FolderReports, jobID, filepath.Base(filePath))
	result, err := s.s3up.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.cfg.S3Storage.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		s.log.Error().Err(err).Msg(errors.FileUploadError)
		return err
	}
	s.log.Info().Msg(fmt.Sprintf("report uploaded to %s", result.Location))
	return nil
}

// DownloadInput fetches an uploaded input file into the local upload dir.
func (s *Service) DownloadInput(fileName string) error {
	s.log.Debug().Msg("calling `DownloadInput` method")
	res, err := s.s3down.GetObjectWithContext(s.syncUtils.Ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.S3Storage.Bucket),
		Key:    aws.String(path.Join(s.cfg.S3Storage.FolderUploads, fileName)),
	})
	if err != nil {
		s.log.Error().Err(err).Msg(errors.FileDownloadError)
		return err
	}
	defer res.Body.Close()

	if err := os.MkdirAll(s.cfg.Verifier.UploadDir, 0o755); err != nil {
		s.log.Error().Err(err).Msg(errors.FileSavingError)
		return err
	}
	localFile, err := os.Create(filepath.Join(s.cfg.Verifier.UploadDir, fileName))
	if err != nil {
		s.log.Error().Err(err).Msg(errors.FileOpeningError)
		return err
	}
	defer func(localFile *os.File) {
		err := localFile.Close()
		if err != nil {
			panic(err)
		}
	}(localFile)
	_, err = io.Copy(localFile, res.Body)
	if err != nil {
		s.log.Error().Err(err).Msg(errors.FileSavingError)
		return err
	}
	return nil
}
