package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"path/filepath"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// DataLock keeps a second process from writing the same save file. It binds
// a localhost port derived from the app name and the data path, so the lock
// disappears with the process.
type DataLock struct {
	listener net.Listener
	address  string
}

// AcquireDataLock takes the lock for dataPath.
func AcquireDataLock(appName, dataPath string) (*DataLock, error) {
	if absolute, err := filepath.Abs(dataPath); err == nil {
		dataPath = absolute
	}
	address := fmt.Sprintf("127.0.0.1:%d", lockPort(appName+"\x00"+dataPath))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is in use by another %s", ErrAlreadyRunning, dataPath, appName)
	}
	return &DataLock{listener: listener, address: address}, nil
}

// Release frees the lock.
func (lock *DataLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

// Address returns the bound address.
func (lock *DataLock) Address() string {
	if lock == nil {
		return ""
	}
	return lock.address
}

func lockPort(key string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(key))
	return minPort + int(hash.Sum32()%uint32(maxPort-minPort+1))
}
