package utils

// REVISION is stamped into every API envelope so clients can report
// the backend build they were talking to.
const REVISION = "1.4.2"
