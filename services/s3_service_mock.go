package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockDocumentStore is an in-memory DocumentStore for testing
type MockDocumentStore struct {
	storedDocuments map[string][]byte // map of S3 key to file content
	mu              sync.RWMutex
}

// NewMockDocumentStore creates a new mock document store
func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{
		storedDocuments: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global document store instance
func (m *MockDocumentStore) SetAsMockForTesting() {
	SetDocumentStore(m)
}

// UploadDocument simulates uploading a document to S3
func (m *MockDocumentStore) UploadDocument(orderID uint, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	s3Key := fmt.Sprintf("orders/%d/documents/mock_%s", orderID, fileHeader.Filename)

	m.mu.Lock()
	m.storedDocuments[s3Key] = content
	m.mu.Unlock()

	return s3Key, nil
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockDocumentStore) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.storedDocuments[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("document not found in mock store: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// DeleteDocument simulates deleting a document from S3
func (m *MockDocumentStore) DeleteDocument(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.storedDocuments, s3Key)
	m.mu.Unlock()

	return nil
}

// DocumentExists checks if a document exists in mock storage
func (m *MockDocumentStore) DocumentExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.storedDocuments[s3Key]
	return exists
}

// Clear removes all documents from mock storage
func (m *MockDocumentStore) Clear() {
	m.mu.Lock()
	m.storedDocuments = make(map[string][]byte)
	m.mu.Unlock()
}
