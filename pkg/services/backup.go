package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	cfg "agents-registry/config"
	"agents-registry/pkg/utils"

	gcs "cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// DatabaseBackuper produces a consistent copy of the catalog database
type DatabaseBackuper interface {
	BackupTo(ctx context.Context, destPath string) error
}

// BackupService uploads the registry data (a staged consistent copy of the
// catalog database plus the exports directory) to a cloud provider.
type BackupService struct {
	pathManager       *utils.PathManager
	db                DatabaseBackuper
	config            *cfg.Config
	log               *utils.Logger
	awsSession        *session.Session
	s3Client          *s3.S3
	gcsClient         *gcs.Client
	azureContainerURL azblob.ContainerURL
}

func NewBackupService(config *cfg.Config, db DatabaseBackuper, log *utils.Logger) (*BackupService, error) {
	if config == nil {
		return nil, fmt.Errorf("❌ invalid configuration: config is nil")
	}
	if log == nil {
		return nil, fmt.Errorf("❌ logger is nil")
	}

	srv := &BackupService{
		pathManager: utils.NewPathManager(config.Storage.Path, log),
		db:          db,
		config:      config,
		log:         log,
	}

	if !config.Backup.Enabled {
		log.Info("Backup is disabled")
		return nil, nil
	}

	secrets := cfg.LoadSecrets()
	log.Info("Backup is enabled")

	switch config.Backup.Provider {
	case "aws":
		if err := srv.initAWSClient(secrets.AWSAccessKeyID, secrets.AWSSecretAccessKey); err != nil {
			return nil, fmt.Errorf("❌ failed to initialize AWS client: %w", err)
		}
	case "gcp":
		if err := srv.initGCPClient(secrets.GCPCredentialsFile); err != nil {
			return nil, fmt.Errorf("❌ failed to initialize GCP client: %w", err)
		}
	case "azure":
		if err := srv.initAzureClient(secrets.AzureStorageAccountKey); err != nil {
			return nil, fmt.Errorf("❌ failed to initialize Azure client: %w", err)
		}
	default:
		log.Info("No backup provider configured")
		return nil, nil
	}

	return srv, nil
}

func (s *BackupService) initAWSClient(accessKey, secretKey string) error {
	s.log.WithFunc().WithFields(logrus.Fields{
		"region": s.config.Backup.AWS.Region,
		"bucket": s.config.Backup.AWS.Bucket,
	}).Debug("Initializing AWS client")

	if accessKey == "" || secretKey == "" {
		return fmt.Errorf("AWS credentials not provided")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(s.config.Backup.AWS.Region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
	if err != nil {
		return fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.awsSession = sess
	s.s3Client = s3.New(sess)
	return nil
}

func (s *BackupService) initGCPClient(credentialsFile string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.config.Backup.GCP.Bucket == "" {
		return fmt.Errorf("GCP bucket name is not configured")
	}
	if credentialsFile == "" {
		return fmt.Errorf("GCP credentials file path not provided")
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		s.log.WithFunc().WithError(err).WithField("credentialsPath", credentialsFile).Error("Credentials file check failed")
		return fmt.Errorf("credentials file not found: %w", err)
	}

	client, err := gcs.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return fmt.Errorf("failed to create GCP client: %w", err)
	}

	bucket := client.Bucket(s.config.Backup.GCP.Bucket)
	attrs, err := bucket.Attrs(ctx)
	if err != nil {
		client.Close()
		if err == gcs.ErrBucketNotExist {
			return fmt.Errorf("bucket %s does not exist in project %s", s.config.Backup.GCP.Bucket, s.config.Backup.GCP.ProjectID)
		}
		return fmt.Errorf("failed to access bucket %s: %w", s.config.Backup.GCP.Bucket, err)
	}

	s.log.WithFunc().WithFields(logrus.Fields{
		"bucket":   s.config.Backup.GCP.Bucket,
		"location": attrs.Location,
	}).Info("Successfully connected to GCP bucket")

	s.gcsClient = client
	return nil
}

func (s *BackupService) initAzureClient(accountKey string) error {
	s.log.WithFunc().WithFields(logrus.Fields{
		"storageAccount": s.config.Backup.Azure.StorageAccount,
		"container":      s.config.Backup.Azure.Container,
	}).Debug("Initializing Azure client")

	if s.config.Backup.Azure.StorageAccount == "" {
		return fmt.Errorf("Azure storage account name is not configured")
	}
	if s.config.Backup.Azure.Container == "" {
		return fmt.Errorf("Azure container name is not configured")
	}
	if accountKey == "" {
		return fmt.Errorf("Azure storage account key not provided")
	}

	credential, err := azblob.NewSharedKeyCredential(s.config.Backup.Azure.StorageAccount, accountKey)
	if err != nil {
		return fmt.Errorf("failed to create Azure credentials: %w", err)
	}

	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})

	containerURL, err := url.Parse(fmt.Sprintf("https://%s.blob.core.windows.net/%s",
		s.config.Backup.Azure.StorageAccount,
		s.config.Backup.Azure.Container))
	if err != nil {
		return fmt.Errorf("failed to parse container URL: %w", err)
	}

	s.azureContainerURL = azblob.NewContainerURL(*containerURL, pipeline)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = s.azureContainerURL.GetProperties(ctx, azblob.LeaseAccessConditions{})
	if err != nil {
		if storageErr, ok := err.(azblob.StorageError); ok && storageErr.ServiceCode() == azblob.ServiceCodeContainerNotFound {
			s.log.WithFunc().WithField("container", s.config.Backup.Azure.Container).Info("Container does not exist, creating it")
			if _, err = s.azureContainerURL.Create(ctx, azblob.Metadata{}, azblob.PublicAccessNone); err != nil {
				return fmt.Errorf("failed to create container %s: %w", s.config.Backup.Azure.Container, err)
			}
		} else {
			return fmt.Errorf("failed to access Azure container %s: %w", s.config.Backup.Azure.Container, err)
		}
	}

	s.log.WithFunc().WithField("container", s.config.Backup.Azure.Container).Info("Successfully connected to Azure Blob Storage")
	return nil
}

// Backup stages a consistent snapshot of the catalog database in the temp
// directory, then uploads it together with the exports directory.
func (s *BackupService) Backup() error {
	s.log.WithFunc().Debug("Starting backup process")

	staged, cleanup, err := s.stageDatabase()
	if err != nil {
		return err
	}
	defer cleanup()

	files := map[string]string{
		// remote key -> local path
		"db/registry.db": staged,
	}
	if err := collectDir(s.pathManager.GetExportsPath(), "exports", files); err != nil {
		s.log.WithFunc().WithError(err).Warn("Failed to collect exports directory")
	}

	switch {
	case s.config.Backup.Provider == "aws" && s.awsSession != nil:
		return s.uploadAll(files, s.uploadToAWS)
	case s.config.Backup.Provider == "gcp" && s.gcsClient != nil:
		return s.uploadAll(files, s.uploadToGCP)
	case s.config.Backup.Provider == "azure" && s.azureContainerURL.URL().Host != "":
		return s.uploadAll(files, s.uploadToAzure)
	}
	return fmt.Errorf("no backup provider configured")
}

// stageDatabase copies the live database into temp via VACUUM INTO
func (s *BackupService) stageDatabase() (string, func(), error) {
	staged := filepath.Join(s.pathManager.GetTempPath(),
		fmt.Sprintf("registry-%d.db", time.Now().Unix()))

	// VACUUM INTO refuses to overwrite an existing file
	_ = os.Remove(staged)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := s.db.BackupTo(ctx, staged); err != nil {
		return "", func() {}, fmt.Errorf("failed to stage database copy: %w", err)
	}

	return staged, func() { _ = os.Remove(staged) }, nil
}

// collectDir adds every regular file under dir to files, keyed under prefix
func collectDir(dir, prefix string, files map[string]string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[prefix+"/"+filepath.ToSlash(relPath)] = path
		return nil
	})
}

func (s *BackupService) uploadAll(files map[string]string, upload func(key, path string) error) error {
	for key, path := range files {
		if err := upload(key, path); err != nil {
			s.log.WithFunc().WithError(err).WithField("file", key).Error("Failed to upload file")
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		s.log.WithFunc().WithField("file", key).Info("File uploaded successfully")
	}
	return nil
}

func (s *BackupService) uploadToAWS(key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	uploader := s3manager.NewUploader(s.awsSession)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.config.Backup.AWS.Bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	return err
}

func (s *BackupService) uploadToGCP(key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	ctx := context.Background()
	obj := s.gcsClient.Bucket(s.config.Backup.GCP.Bucket).Object(key)
	writer := obj.NewWriter(ctx)

	if _, err := io.Copy(writer, file); err != nil {
		return err
	}
	return writer.Close()
}

func (s *BackupService) uploadToAzure(key, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	ctx := context.Background()
	blobURL := s.azureContainerURL.NewBlockBlobURL(key)

	_, err = azblob.UploadFileToBlockBlob(ctx, file, blobURL, azblob.UploadToBlockBlobOptions{
		BlockSize:   4 * 1024 * 1024, // 4MB blocks
		Parallelism: 16,
	})
	return err
}

// Restore pulls the latest database backup from the configured provider
// back into the data directory. Only AWS is implemented so far.
func (s *BackupService) Restore() error {
	s.log.WithFunc().Debug("Starting restore process")

	if s.awsSession != nil {
		return s.restoreFromAWS()
	}
	return fmt.Errorf("restore not implemented for provider %s", s.config.Backup.Provider)
}

func (s *BackupService) restoreFromAWS() error {
	downloader := s3manager.NewDownloader(s.awsSession)

	restored := filepath.Join(s.pathManager.GetTempPath(), "registry-restored.db")
	file, err := os.Create(restored)
	if err != nil {
		return fmt.Errorf("failed to create restore file: %w", err)
	}
	defer file.Close()

	_, err = downloader.Download(file, &s3.GetObjectInput{
		Bucket: aws.String(s.config.Backup.AWS.Bucket),
		Key:    aws.String("db/registry.db"),
	})
	if err != nil {
		return fmt.Errorf("failed to download backup: %w", err)
	}

	s.log.WithFunc().WithField("path", restored).Info("Database backup downloaded; move it into place and restart to use it")
	return nil
}
