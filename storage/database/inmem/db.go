package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/watas/core/analytics"
	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/course"
	"github.com/trezcool/watas/core/group"
	"github.com/trezcool/watas/core/profile"
	"github.com/trezcool/watas/core/settings"
	"github.com/trezcool/watas/core/support"
)

type (
	// DB is a process-local stand-in for the hosted database, used by tests & local runs.
	DB struct {
		course     *courseTable
		group      *groupTable
		assignment *assignmentTable
		completion *completionTable
		profile    *profileTable
		support    *supportTable
		visit      *visitTable
		usage      *usageTable
		setting    *settingTable
	}

	courseTable struct {
		t     map[string]*course.Course
		mutex sync.RWMutex
	}

	groupTable struct {
		t     map[string]*group.Group
		mutex sync.RWMutex
	}

	assignmentTable struct {
		t     map[string]*assignment.Assignment
		mutex sync.RWMutex
	}

	// completionTable is keyed by user id, then assignment id.
	completionTable struct {
		t     map[string]map[string]bool
		mutex sync.RWMutex
	}

	profileTable struct {
		t     map[string]*profile.Profile
		mutex sync.RWMutex
	}

	supportTable struct {
		t     []support.Request
		mutex sync.RWMutex
	}

	visitTable struct {
		t     []analytics.PageVisit
		mutex sync.RWMutex
	}

	usageTable struct {
		t     []analytics.UsageRecord
		mutex sync.RWMutex
	}

	settingTable struct {
		t     map[string]settings.Setting
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		course:     &courseTable{t: make(map[string]*course.Course)},
		group:      &groupTable{t: make(map[string]*group.Group)},
		assignment: &assignmentTable{t: make(map[string]*assignment.Assignment)},
		completion: &completionTable{t: make(map[string]map[string]bool)},
		profile:    &profileTable{t: make(map[string]*profile.Profile)},
		support:    &supportTable{},
		visit:      &visitTable{},
		usage:      &usageTable{},
		setting:    &settingTable{t: make(map[string]settings.Setting)},
	}
}

func newID() string { return uuid.NewString() }
