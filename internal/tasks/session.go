package tasks

// EditState is either EditIdle or Editing.
type EditState interface {
	isEditState()
}

// EditIdle means no task is being edited.
type EditIdle struct{}

// Editing holds the task under edit and its unsaved draft.
type Editing struct {
	ID    int64
	Draft string
}

func (EditIdle) isEditState() {}
func (Editing) isEditState()  {}

// DeleteState is either DeleteIdle or DeletePending.
type DeleteState interface {
	isDeleteState()
}

// DeleteIdle means no deletion awaits confirmation.
type DeleteIdle struct{}

// DeletePending holds the task awaiting delete confirmation.
type DeletePending struct {
	ID int64
}

func (DeleteIdle) isDeleteState()    {}
func (DeletePending) isDeleteState() {}
