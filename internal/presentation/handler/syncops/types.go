package syncops

import (
	"github.com/jinxingedu/kindersync/internal/mirror"
	"github.com/jinxingedu/kindersync/internal/persistence/store"
	"github.com/jinxingedu/kindersync/internal/syncer"
)

type statusResponse struct {
	Mirror       mirror.Status    `json:"mirror"`
	LastSyncTime string           `json:"lastSyncTime,omitempty"`
	Keys         []store.KeyStats `json:"keys"`
}

type uploadAllResponse struct {
	Results []syncer.UploadResult `json:"results"`
}

type reconcileResponse struct {
	Results []syncer.ReconcileResult `json:"results"`
}

type statsResponse struct {
	Keys []store.KeyStats `json:"keys"`
}
