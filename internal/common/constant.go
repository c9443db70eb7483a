package common

// Names of the blobs a vault keeps next to its records.
const (
	KeyBlobName       = "repository.key"
	PublicKeyBlobName = "repository.pub"
)

// KeyDirName is the hidden directory the file store keeps blobs in.
const KeyDirName = ".spmkey"
