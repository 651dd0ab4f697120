package session

const (
	msgAlreadyRunning    = "You already have a timer running!"
	msgNoTimer           = "There is no timer running."
	msgNoTimerCurrently  = "There is no timer running currently!"
	msgAlreadyPaused     = "The timer is already paused!"
	msgAlreadyFinished   = "The timer has already finished!"
	msgStillRunning      = "The timer is still running!"
	msgNothingToStop     = "You don't have a timer running!"
	msgAlreadyStopped    = "The timer has already stopped."
	msgStopped           = "Alright, I've stopped the timer."
	msgTimeUp            = "Time is up!"
	msgCannotMark        = "You can't mark a task as done while timer is running!"
	msgCannotShow        = "You can't show tasks while timer is running!"
	msgInvalidTimerInput = "Invalid timer input. Try 'start <seconds>', 'start 25m' or 'start stopwatch'."
	msgMarkUsage         = "Please give the number of the task to mark, e.g. 'mark 2'."
	msgIdlePaused        = "Looks like you stepped away, so I've paused the timer. Type 'resume' when you're back."
	msgWindowClosed      = "The timer window was closed."

	promptNoSession = "Would you like to start another timer, mark a task as done, or leave the study session?"
	promptPaused    = "Would you like to resume the timer, mark a task as done, or leave the study session?"
)
