package api

import (
	"github.com/sebastiankulla/bielefeld-events/app/database"
	"github.com/sebastiankulla/bielefeld-events/app/publish"
	"github.com/sebastiankulla/bielefeld-events/app/tasks"
)

type Handler struct {
	eventRepo database.EventRepository
	generator *publish.Generator
	scheduler tasks.TaskSchedulerInterface
	siteDir   string
}
