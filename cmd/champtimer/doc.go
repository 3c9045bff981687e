// Command champtimer captures finish-line times from a Champ-style serial
// race timer, runs heats and tournaments against them, and writes CSV and
// SQLite results.
package main
