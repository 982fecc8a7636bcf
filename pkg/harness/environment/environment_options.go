package environment

func WithWorkingDir(dir string) Option {
	return func(e *environment) {
		e.dir = dir
	}
}

func WithBuildNumber(number string) Option {
	return func(e *environment) {
		e.buildNumber = number
	}
}
