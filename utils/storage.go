package utils

import (
	"fmt"
	"io"
	"lms/config"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

// StoredObject describes an uploaded file as returned to the client
type StoredObject struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type storageUploadResponse struct {
	URL     string `json:"url"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StoreFile uploads the file to the configured object-storage endpoint and
// returns its public URL. When no endpoint is configured it falls back to the
// local public directory.
func StoreFile(file *multipart.FileHeader) (*StoredObject, error) {
	if config.AppConfig.StorageAPIURL == "" {
		return storeLocal(file)
	}
	return storeRemote(file)
}

// storeRemote posts the file as multipart form data to the storage service
func storeRemote(file *multipart.FileHeader) (*StoredObject, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectName := GenerateObjectName(file.Filename)

	client := resty.New().SetTimeout(45 * time.Second)

	var result storageUploadResponse
	resp, err := client.R().
		SetAuthToken(config.AppConfig.StorageAPIKey).
		SetFileReader("file", objectName, src).
		SetResult(&result).
		Post(config.AppConfig.StorageAPIURL)
	if err != nil {
		return nil, fmt.Errorf("storage upload failed: %v", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("storage upload failed, code: %d", resp.StatusCode())
	}
	if result.URL == "" {
		return nil, fmt.Errorf("storage upload failed: %s", result.Message)
	}

	return &StoredObject{URL: result.URL, Name: objectName, Size: file.Size}, nil
}

// storeLocal saves the file under the public directory and returns its public path
func storeLocal(file *multipart.FileHeader) (*StoredObject, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	destDir := filepath.Join(config.AppConfig.PublicDir, "uploads")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	objectName := GenerateObjectName(file.Filename)
	filePath := filepath.Join(destDir, objectName)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &StoredObject{URL: "/uploads/" + objectName, Name: objectName, Size: file.Size}, nil
}
