package domain

// Board is the three-column view of one user's tasks.
type Board struct {
	ToDo  []Task
	Doing []Task
	Done  []Task
}

// PartitionTasks splits tasks into board columns in a single pass,
// preserving input order within each column. Tasks carrying a status
// outside the known set are not an error; they are simply left off the
// board.
func PartitionTasks(tasks []Task) Board {
	var board Board
	for _, task := range tasks {
		switch task.Status {
		case TaskStatusToDo:
			board.ToDo = append(board.ToDo, task)
		case TaskStatusDoing:
			board.Doing = append(board.Doing, task)
		case TaskStatusDone:
			board.Done = append(board.Done, task)
		}
	}
	return board
}
