package util

import (
	"sync"

	"github.com/denisbrodbeck/machineid"
)

const machineAppID = "objective-share-service"

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID 获取当前机器的唯一标识符（按应用 HMAC 过，不暴露原始 ID）
// Returns an empty string when the platform does not expose a machine id.
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID(machineAppID); err == nil {
			machineID = id
		}
	})
	return machineID
}
