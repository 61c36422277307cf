package service

// Recorder 接收領域事件計數，由 internal/metrics 實作
type Recorder interface {
	TagCreated()
	RecipeCreated()
}

type nopRecorder struct{}

func (nopRecorder) TagCreated()    {}
func (nopRecorder) RecipeCreated() {}
