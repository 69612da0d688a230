package dataversion

import (
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// DataVersion describes a published revision of the static dataset.
type DataVersion struct {
	Version         string            `json:"version"`
	LastUpdated     string            `json:"lastUpdated"`
	Description     string            `json:"description,omitempty"`
	StaticVersions  map[string]string `json:"staticData,omitempty"`
	DynamicVersions map[string]string `json:"dynamicData,omitempty"`
	Policy          SyncPolicy        `json:"syncPolicy"`
}

type SyncPolicy struct {
	EnableAutoSync      bool
	AutoSyncInterval    time.Duration
	ManualSyncOnly      bool
	SyncOnlyDynamicData bool
}

type syncPolicyJSON struct {
	EnableAutoSync      bool `json:"enableAutoSync"`
	AutoSyncInterval    int  `json:"autoSyncInterval"`
	ManualSyncOnly      bool `json:"manualSyncOnly"`
	SyncOnlyDynamicData bool `json:"syncOnlyDynamicData"`
}

// MarshalJSON writes AutoSyncInterval as whole hours.
func (p SyncPolicy) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(syncPolicyJSON{
		EnableAutoSync:      p.EnableAutoSync,
		AutoSyncInterval:    int(p.AutoSyncInterval / time.Hour),
		ManualSyncOnly:      p.ManualSyncOnly,
		SyncOnlyDynamicData: p.SyncOnlyDynamicData,
	})
}

func (p *SyncPolicy) UnmarshalJSON(data []byte) error {
	var raw syncPolicyJSON
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.EnableAutoSync = raw.EnableAutoSync
	p.AutoSyncInterval = time.Duration(raw.AutoSyncInterval) * time.Hour
	p.ManualSyncOnly = raw.ManualSyncOnly
	p.SyncOnlyDynamicData = raw.SyncOnlyDynamicData
	return nil
}

// Newer reports whether v is a later revision than other. Dotted numeric
// versions compare segment by segment; anything else falls back to string
// comparison.
func (v DataVersion) Newer(other DataVersion) bool {
	return compareVersions(v.Version, other.Version) > 0
}

func compareVersions(a, b string) int {
	pa := strings.Split(strings.TrimPrefix(strings.TrimSpace(a), "v"), ".")
	pb := strings.Split(strings.TrimPrefix(strings.TrimSpace(b), "v"), ".")
	for i := 0; i < len(pa) || i < len(pb); i++ {
		sa, sb := segment(pa, i), segment(pb, i)
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(sa, sb); c != 0 {
			return c
		}
	}
	return 0
}

func segment(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}
