// Package startup handles application configuration and startup logging.
//
// Configuration comes from environment variables, with a .env file
// loaded first when present. PEXELS_API_KEY is the only required
// setting; everything else has a sensible default. LoadConfig also
// validates the data directory and prints the startup banner, system
// information, and the resolved configuration so a misconfigured
// deployment is obvious from the first screen of logs.
package startup
